package dashboard

import (
	"context"

	"github.com/upca/personnel-console/internal/core/access"
)

// Source is a table the dashboard counts rows of.
type Source string

const (
	SourceNovedades     Source = "novedades"
	SourceIncapacidades Source = "incapacidades"
	SourceEnfermeria    Source = "enfermeria"
	SourceUsuarios      Source = "users"
)

type CounterAPI interface {
	Count(ctx context.Context, source Source) (int64, error)
}

// Card is one headline figure. Cards the caller may not read are left out.
type Card struct {
	Module string `json:"module"`
	Title  string `json:"title"`
	Count  int64  `json:"count"`
}

// Chart is a single bar series over the record modules.
type Chart struct {
	Label  string   `json:"label"`
	Labels []string `json:"labels"`
	Values []int64  `json:"values"`
}

type Summary struct {
	Cards []Card `json:"cards"`
	Chart Chart  `json:"chart"`
}

type panel struct {
	module access.Module
	source Source
	title  string
	label  string
}

var recordPanels = []panel{
	{access.Novedades, SourceNovedades, "Total Novedades", "Novedades"},
	{access.Incapacidades, SourceIncapacidades, "Total Incapacidades", "Incapacidades"},
	{access.Enfermeria, SourceEnfermeria, "Total Enfermería", "Enfermería"},
}

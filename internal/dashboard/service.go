package dashboard

import (
	"context"
	"log/slog"

	"github.com/upca/personnel-console/internal"
	"github.com/upca/personnel-console/internal/core/access"
	"golang.org/x/sync/errgroup"
)

type Service struct {
	counter CounterAPI
	logger  *slog.Logger
}

func NewService(counter CounterAPI, logger *slog.Logger) *Service {
	return &Service{counter: counter, logger: logger}
}

// Summary counts, concurrently, only what the principal may read. Modules
// it cannot read show as zero in the chart and have no card.
func (s *Service) Summary(ctx context.Context, p *internal.Principal) (*Summary, error) {
	counts := make([]int64, len(recordPanels))
	var users int64

	g, gctx := errgroup.WithContext(ctx)
	for i, pn := range recordPanels {
		if !p.Can(pn.module, access.Read) {
			continue
		}
		g.Go(func() error {
			n, err := s.counter.Count(gctx, pn.source)
			if err != nil {
				return err
			}
			counts[i] = n
			return nil
		})
	}
	if p.IsAdmin() {
		g.Go(func() error {
			n, err := s.counter.Count(gctx, SourceUsuarios)
			if err != nil {
				return err
			}
			users = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.ErrorContext(ctx, "dashboard counts failed", "error", err)
		return nil, internal.ErrBackendUnavailable.WithCause(err)
	}

	out := &Summary{
		Cards: []Card{},
		Chart: Chart{Label: "Registros"},
	}
	for i, pn := range recordPanels {
		if p.Can(pn.module, access.Read) {
			out.Cards = append(out.Cards, Card{Module: pn.module.String(), Title: pn.title, Count: counts[i]})
		}
		out.Chart.Labels = append(out.Chart.Labels, pn.label)
		out.Chart.Values = append(out.Chart.Values, counts[i])
	}
	if p.IsAdmin() {
		out.Cards = append(out.Cards, Card{Module: access.Usuarios.String(), Title: "Total Usuarios", Count: users})
	}
	return out, nil
}

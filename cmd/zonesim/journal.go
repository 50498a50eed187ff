package main

import (
	"context"
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/udisondev/polyzone/internal/db"
	"github.com/udisondev/polyzone/internal/zone"
)

// transitionJournal stores watch transitions.
type transitionJournal interface {
	Record(ctx context.Context, row db.TransitionRow) (db.TransitionRow, error)
}

// discardJournal is used when the database is disabled.
type discardJournal struct{}

func (discardJournal) Record(_ context.Context, row db.TransitionRow) (db.TransitionRow, error) {
	return row, nil
}

// recordTransitions logs each transition and writes it to the journal.
func recordTransitions(ctx context.Context, journal transitionJournal, zoneName, subject string) zone.TransitionFunc {
	return func(p mgl64.Vec3, inside bool) {
		slog.Info("zone transition",
			"zone", zoneName,
			"subject", subject,
			"inside", inside,
			"x", p[0], "y", p[1], "z", p[2])

		_, err := journal.Record(ctx, db.TransitionRow{
			Zone:    zoneName,
			Subject: subject,
			Inside:  inside,
			X:       p[0],
			Y:       p[1],
			Z:       p[2],
		})
		if err != nil && ctx.Err() == nil {
			slog.Error("journal zone transition", "zone", zoneName, "subject", subject, "err", err)
		}
	}
}

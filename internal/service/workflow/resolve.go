package workflow

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/carehome-backend/internal/domain"
)

// Resolution is the recipient set of one dispatch together with the outcome
// of each lookup that produced it.
type Resolution struct {
	Recipients []uuid.UUID
	Outcomes   []Outcome
}

// ResolveRecipients returns the managers of the care home and every active
// business owner, without the actor. Both lookups run concurrently; a failing
// lookup contributes no recipients and never affects the other.
func (s *Service) ResolveRecipients(ctx context.Context, careHomeID, actorID uuid.UUID) Resolution {
	var (
		managers, owners       []uuid.UUID
		managersErr, ownersErr error
		g                      errgroup.Group
	)

	g.Go(func() error {
		managers, managersErr = s.homes.ListManagerIDs(ctx, careHomeID)
		return nil
	})
	g.Go(func() error {
		owners, ownersErr = s.profiles.ListActiveIDsByRole(ctx, domain.RoleBusinessOwner)
		return nil
	})
	_ = g.Wait()

	res := Resolution{Outcomes: make([]Outcome, 0, 2)}
	res.Outcomes = append(res.Outcomes, s.lookupOutcome(ctx, OpResolveManagers, len(managers), managersErr, careHomeID))
	res.Outcomes = append(res.Outcomes, s.lookupOutcome(ctx, OpResolveOwners, len(owners), ownersErr, careHomeID))

	if managersErr != nil {
		managers = nil
	}
	if ownersErr != nil {
		owners = nil
	}
	res.Recipients = unionExcluding(actorID, managers, owners)
	return res
}

func (s *Service) lookupOutcome(ctx context.Context, op string, n int, err error, careHomeID uuid.UUID) Outcome {
	if err != nil {
		s.log.ErrorContext(ctx, "recipient lookup failed",
			slog.String("op", op),
			slog.String("care_home_id", careHomeID.String()),
			slog.String("error", err.Error()),
		)
		return failed(op, err)
	}
	return succeeded(op, n)
}

// unionExcluding merges the id lists in order, dropping duplicates, nil ids
// and the excluded id.
func unionExcluding(exclude uuid.UUID, lists ...[]uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	out := make([]uuid.UUID, 0)
	for _, list := range lists {
		for _, id := range list {
			if id == uuid.Nil || id == exclude {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

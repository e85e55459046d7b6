package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/devarko/thunderstorm/backend/internal/models"
	"github.com/devarko/thunderstorm/backend/internal/repositories"
	"github.com/devarko/thunderstorm/backend/pkg/logger"
)

// Reconciler periodically sweeps the graph-audit journal for two-phase writes
// whose peer update never landed and replays the missing half. Follows and
// unfollows past the grace period are re-checked against the current state of
// the actor's document, so a relationship the user has since reversed is not
// resurrected.
type Reconciler struct {
	users    repositories.UserRepository
	audit    repositories.AuditRepository
	interval time.Duration
	grace    time.Duration
}

// NewReconciler creates a Reconciler sweeping at the given interval. Rows
// younger than grace are skipped so in-flight requests are not raced.
func NewReconciler(users repositories.UserRepository, audit repositories.AuditRepository, interval, grace time.Duration) *Reconciler {
	if interval <= 0 {
		interval = time.Minute
	}
	if grace <= 0 {
		grace = 30 * time.Second
	}
	return &Reconciler{users: users, audit: audit, interval: interval, grace: grace}
}

// Start runs the sweep loop until stop is called. Returns the stop function.
func (r *Reconciler) Start() func(context.Context) error {
	stopCh := make(chan struct{})
	go func() {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				if err := r.RunOnce(ctx); err != nil {
					logger.Warn("graph reconcile sweep failed", zap.Error(err))
				}
				cancel()
			case <-stopCh:
				return
			}
		}
	}()
	return func(ctx context.Context) error {
		close(stopCh)
		return nil
	}
}

// RunOnce performs a single sweep and repairs every incomplete journal row.
func (r *Reconciler) RunOnce(ctx context.Context) error {
	entries, err := r.audit.ListIncomplete(ctx, r.grace)
	if err != nil {
		return err
	}
	for i := range entries {
		if err := r.repair(ctx, &entries[i]); err != nil {
			logger.Warn("graph repair failed",
				zap.Uint("audit_id", entries[i].ID),
				zap.String("op", entries[i].Op),
				zap.Error(err))
			continue
		}
	}
	return nil
}

func (r *Reconciler) repair(ctx context.Context, entry *models.GraphAudit) error {
	actor, err := r.users.GetUserByUserID(ctx, entry.ActorID)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			// Actor gone; nothing to reconcile.
			return r.audit.MarkDone(ctx, entry.ID)
		}
		return err
	}

	following := actor.IsFollowing(entry.TargetID)
	switch entry.Op {
	case models.OpFollow:
		// Replay the peer write only while the forward edge still exists.
		if following {
			if err := r.users.AddFollower(ctx, entry.TargetID, entry.ActorID); err != nil && err != repositories.ErrUserNotFound {
				return err
			}
			logger.Info("repaired one-directional follow",
				zap.Int64("actor", entry.ActorID), zap.Int64("target", entry.TargetID))
		}
	case models.OpUnfollow:
		if !following {
			if err := r.users.RemoveFollower(ctx, entry.TargetID, entry.ActorID); err != nil && err != repositories.ErrUserNotFound {
				return err
			}
			logger.Info("repaired one-directional unfollow",
				zap.Int64("actor", entry.ActorID), zap.Int64("target", entry.TargetID))
		}
	}
	return r.audit.MarkDone(ctx, entry.ID)
}

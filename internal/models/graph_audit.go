package models

import "time"

// Graph audit phases. A row in PhaseForward past its grace period marks a
// follow/unfollow whose second write may never have landed.
const (
	PhaseForward = "forward"
	PhaseDone    = "done"
)

// Graph audit operations.
const (
	OpFollow   = "follow"
	OpUnfollow = "unfollow"
)

// GraphAudit journals every two-phase graph write. The follower-side update is
// recorded as "forward" before the peer write and promoted to "done" after it,
// so incomplete rows enumerate the one-directional relationships an operator
// (or the reconciler) needs to repair.
type GraphAudit struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Op        string    `json:"op" gorm:"type:varchar(16);index"`
	ActorID   int64     `json:"actor_id" gorm:"index"`
	TargetID  int64     `json:"target_id" gorm:"index"`
	Phase     string    `json:"phase" gorm:"type:varchar(16);index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

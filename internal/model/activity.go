package model

import "time"

type ActivityType string

const (
	ActivityUserSignedUp   ActivityType = "user.signed_up"
	ActivityUserDeleted    ActivityType = "user.deleted"
	ActivityUserFollowed   ActivityType = "user.followed"
	ActivityUserUnfollowed ActivityType = "user.unfollowed"
	ActivityMessageCreated ActivityType = "message.created"
	ActivityMessageDeleted ActivityType = "message.deleted"
	ActivityMessageLiked   ActivityType = "message.liked"
	ActivityMessageUnliked ActivityType = "message.unliked"
)

// ActivityEvent is published after a state change commits. It is never stored.
type ActivityEvent struct {
	ID         string       `json:"id"`
	Type       ActivityType `json:"type"`
	ActorID    uint         `json:"actor_id"`
	SubjectID  uint         `json:"subject_id,omitempty"`
	OccurredAt time.Time    `json:"occurred_at"`
}

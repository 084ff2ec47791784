package types

// FollowRelation describes the social-graph edge between a poke sender
// and a recipient, from the sender's point of view. Follower means the
// sender follows the recipient (the sender is among the recipient's
// followers); Mutual means both directions exist.
type FollowRelation string

const (
	FollowRelationNone     FollowRelation = "none"
	FollowRelationFollower FollowRelation = "follower"
	FollowRelationMutual   FollowRelation = "mutual"
)

// IsFollower reports whether the sender counts as a follower of the
// recipient (a mutual follow implies it)
func (r FollowRelation) IsFollower() bool {
	return r == FollowRelationFollower || r == FollowRelationMutual
}

// IsMutual reports whether both sides follow each other
func (r FollowRelation) IsMutual() bool {
	return r == FollowRelationMutual
}

// String returns the string representation of the relation
func (r FollowRelation) String() string {
	return string(r)
}

// NewFollowRelation derives the relation from the two directed edges
func NewFollowRelation(senderFollowsRecipient, recipientFollowsSender bool) FollowRelation {
	switch {
	case senderFollowsRecipient && recipientFollowsSender:
		return FollowRelationMutual
	case senderFollowsRecipient:
		return FollowRelationFollower
	default:
		return FollowRelationNone
	}
}

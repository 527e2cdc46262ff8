package command

import "fmt"

// Allowed reports whether the caller's roles satisfy a command's tier.
// An unrecognized tier is a configuration error, not a grant: silently
// allowing unknown tiers would turn a typo in a broadcaster override into
// an open command.
func Allowed(tier Tier, msg Message) (bool, error) {
	switch tier {
	case TierEveryone, "":
		return true, nil
	case TierSubscriber:
		return msg.IsSubscriber || msg.IsModerator || msg.IsBroadcaster, nil
	case TierModerator:
		return msg.IsModerator || msg.IsBroadcaster, nil
	case TierBroadcaster:
		return msg.IsBroadcaster, nil
	default:
		return false, fmt.Errorf("unknown permission tier %q", tier)
	}
}

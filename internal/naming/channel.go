package naming

import "strings"

// Channel is the color channel inferred from a filename's channel token.
type Channel string

const (
	ChannelRed         Channel = "red"
	ChannelGreen       Channel = "green"
	ChannelBlue        Channel = "blue"
	ChannelBrightfield Channel = "brightfield" // Excluded from merging.
	ChannelUnknown     Channel = "unknown"     // No RGB slot; excluded from merging.
)

// MergeChannels lists the channels that participate in an RGB merge, in
// compositing order.
var MergeChannels = [3]Channel{ChannelRed, ChannelGreen, ChannelBlue}

// Mergeable reports whether records of this channel can occupy an RGB slot.
func (c Channel) Mergeable() bool {
	switch c {
	case ChannelRed, ChannelGreen, ChannelBlue:
		return true
	}
	return false
}

// Classify maps a channel token to a Channel.
//
// The token's first letter decides the color: any spelling is accepted as
// long as it starts with r, g or b ("reed" is red, "guleinoiena" is green).
// A token starting with "bf" is brightfield regardless of what follows, and
// that rule wins over the first-letter rule — so a non-brightfield token that
// merely starts with "b" reads as blue, while "bfue" reads as brightfield.
// Both behaviors are deliberate and relied upon by existing plate folders;
// do not tighten them.
func Classify(token string) Channel {
	t := strings.ToLower(token)
	if strings.HasPrefix(t, "bf") {
		return ChannelBrightfield
	}
	if t == "" {
		return ChannelUnknown
	}
	switch t[0] {
	case 'r':
		return ChannelRed
	case 'g':
		return ChannelGreen
	case 'b':
		return ChannelBlue
	}
	return ChannelUnknown
}

package keys

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	// key layout:
	// friends_timeline            aggregate timeline of the account and its friends
	// user_timeline/<screenname>  one user's own posts
	FriendsTimeline    = "friends_timeline"
	UserTimelinePrefix = "user_timeline/"
	UserTimeline       = UserTimelinePrefix + "%s"
)

// Kind distinguishes per-user timelines from the aggregate one.
type Kind int

const (
	KindUnknown Kind = iota
	KindFriends
	KindUser
)

func (k Kind) String() string {
	switch k {
	case KindFriends:
		return "friends"
	case KindUser:
		return "user"
	default:
		return "unknown"
	}
}

var screenNameRegexp = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,64}$`)

// ValidateScreenName checks the name is usable as a key segment.
func ValidateScreenName(name string) error {
	if name == "" {
		return errors.New("screen name empty")
	}
	if !screenNameRegexp.MatchString(name) {
		return fmt.Errorf("invalid screen name: %q", name)
	}
	return nil
}

func GenUserTimelineKey(screenName string) (string, error) {
	if err := ValidateScreenName(screenName); err != nil {
		return "", err
	}
	return fmt.Sprintf(UserTimeline, screenName), nil
}

func GenFriendsTimelineKey() string {
	return FriendsTimeline
}

type TimelineKeyParts struct {
	Kind       Kind
	ScreenName string
}

func ParseTimelineKey(key string) (TimelineKeyParts, error) {
	if key == FriendsTimeline {
		return TimelineKeyParts{Kind: KindFriends}, nil
	}
	if name, ok := strings.CutPrefix(key, UserTimelinePrefix); ok {
		if err := ValidateScreenName(name); err != nil {
			return TimelineKeyParts{}, fmt.Errorf("invalid timeline key %q: %w", key, err)
		}
		return TimelineKeyParts{Kind: KindUser, ScreenName: name}, nil
	}
	return TimelineKeyParts{}, fmt.Errorf("invalid timeline key format: %q", key)
}

func ValidateTimelineKey(key string) error {
	_, err := ParseTimelineKey(key)
	return err
}

package keys

import "testing"

func TestTimelineKeysBuildersParsers(t *testing.T) {
	cases := []struct {
		screenName string
		want       string
	}{
		{screenName: "kmerenkov", want: "user_timeline/kmerenkov"},
		{screenName: "a_b.C-123", want: "user_timeline/a_b.C-123"},
	}

	for _, c := range cases {
		k, err := GenUserTimelineKey(c.screenName)
		if err != nil {
			t.Fatalf("GenUserTimelineKey error: %v", err)
		}
		if k != c.want {
			t.Fatalf("GenUserTimelineKey mismatch: got %s want %s", k, c.want)
		}
		parts, err := ParseTimelineKey(k)
		if err != nil {
			t.Fatalf("ParseTimelineKey error: %v (key=%s)", err, k)
		}
		if parts.Kind != KindUser || parts.ScreenName != c.screenName {
			t.Fatalf("ParseTimelineKey mismatch: got %+v", parts)
		}
	}

	parts, err := ParseTimelineKey(GenFriendsTimelineKey())
	if err != nil || parts.Kind != KindFriends {
		t.Fatalf("friends key did not parse: %+v %v", parts, err)
	}
}

func TestTimelineKeysInvalid(t *testing.T) {
	if _, err := GenUserTimelineKey(""); err == nil {
		t.Fatalf("expected error for empty screen name")
	}
	if _, err := GenUserTimelineKey("has space"); err == nil {
		t.Fatalf("expected error for screen name with a space")
	}
	for _, k := range []string{"", "user_timeline/", "public_timeline", "user_timeline/a/b"} {
		if err := ValidateTimelineKey(k); err == nil {
			t.Fatalf("expected error for key %q", k)
		}
	}
}

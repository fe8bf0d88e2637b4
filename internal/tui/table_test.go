package tui

import "testing"

func TestFormatUptime(t *testing.T) {
	cases := []struct {
		seconds int64
		want    string
	}{
		{0, "-"},
		{-5, "-"},
		{45, "45s"},
		{125, "2m5s"},
		{3725, "1h2m"},
	}
	for _, c := range cases {
		if got := formatUptime(c.seconds); got != c.want {
			t.Errorf("formatUptime(%d) = %q, want %q", c.seconds, got, c.want)
		}
	}
}

func TestFormatCommand(t *testing.T) {
	if got := formatCommand("/usr/bin/nginx", nil); got != "/usr/bin/nginx" {
		t.Errorf("formatCommand with no args = %q", got)
	}
	if got := formatCommand("/usr/bin/nginx", []string{"-g", "daemon off;"}); got != "/usr/bin/nginx -g daemon off;" {
		t.Errorf("formatCommand with args = %q", got)
	}
}

package s3source

import "testing"

func TestNormalizePrefix(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"prefix", "prefix/"},
		{"prefix/", "prefix/"},
		{"a/b/c", "a/b/c/"},
		{"/a/b/c/", "a/b/c/"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := normalizePrefix(tt.input); got != tt.want {
				t.Errorf("normalizePrefix(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestOptions(t *testing.T) {
	var set settings
	for _, opt := range []Option{
		WithPrefix("tables"),
		WithRegion("eu-west-1"),
		WithEndpoint("http://localhost:9000"),
	} {
		opt(&set)
	}
	if set.prefix != "tables" || set.region != "eu-west-1" || set.endpoint != "http://localhost:9000" {
		t.Errorf("settings = %+v", set)
	}
}

func TestSource_name(t *testing.T) {
	s := &Source{prefix: "data/v1/"}

	if got, ok := s.name("data/v1/KQvK.rtbz"); !ok || got != "KQvK.rtbz" {
		t.Errorf("name() = %q, %v; want %q, true", got, ok, "KQvK.rtbz")
	}
	if _, ok := s.name("data/v1/nested/KQvK.rtbz"); ok {
		t.Error("name() accepted a nested key")
	}
	if got := s.key("KQvK.rtbz"); got != "data/v1/KQvK.rtbz" {
		t.Errorf("key() = %q, want %q", got, "data/v1/KQvK.rtbz")
	}
}

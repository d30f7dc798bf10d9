package weave

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersion(t *testing.T) {
	defer func(c string) { GitCommit = c }(GitCommit)

	cases := map[string]struct {
		commit string
		want   string
	}{
		"no commit":    {commit: "", want: "v0.1.0-dev"},
		"short commit": {commit: "1234", want: "v0.1.0-dev+1234"},
		"full commit":  {commit: "0123456789abcdef0123", want: "v0.1.0-dev+01234567"},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			GitCommit = tc.commit
			assert.Equal(t, tc.want, Version())
		})
	}
}

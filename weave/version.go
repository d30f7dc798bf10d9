package weave

// Release builds set both with
//
//	-ldflags "-X github.com/iov-one/tipjar/weave.release=v1.0.0 -X github.com/iov-one/tipjar/weave.GitCommit=<sha>"
var (
	release   = "v0.1.0-dev"
	GitCommit = ""
)

// Version returns the release name, followed by the abbreviated commit when
// the binary was built from a known one.
func Version() string {
	if GitCommit == "" {
		return release
	}
	commit := GitCommit
	if len(commit) > 8 {
		commit = commit[:8]
	}
	return release + "+" + commit
}

package version

import "runtime"

var (
	// GitCommit is the current HEAD set using ldflags.
	GitCommit string

	// Version is the built softwares version.
	Version = IotaTrustSemVer
)

func init() {
	if GitCommit != "" {
		Version += "-" + GitCommit
	}
}

const (
	// IotaTrustSemVer is the current version of iota-trust.
	// Must be a string because scripts like dist.sh read this file.
	IotaTrustSemVer = "0.3.0"

	// KVProtocol versions the REST key/value paths and item encodings.
	KVProtocol = 1
)

// Info describes the running binary.
type Info struct {
	Version    string `json:"version"`
	GitCommit  string `json:"git_commit,omitempty"`
	KVProtocol uint64 `json:"kv_protocol"`
	GoVersion  string `json:"go_version"`
}

// Get returns the version info of the running binary.
func Get() Info {
	return Info{
		Version:    Version,
		GitCommit:  GitCommit,
		KVProtocol: KVProtocol,
		GoVersion:  runtime.Version(),
	}
}

// Package misc keeps build identity used across the program. Values are
// overwritten at build time (see Taskfile.yml).
package misc

var (
	appName = "dxc"
	version = "0.0.0-dev"
	gitHash = "unknown"
)

// GetAppName returns short program name used for temporary files, logs and reports.
func GetAppName() string {
	return appName
}

// GetVersion returns program version set during the build.
func GetVersion() string {
	return version
}

// GetGitHash returns git commit hash set during the build.
func GetGitHash() string {
	return gitHash
}

//go:generate go run ./script/buildinfo-extractor.go .
//
// Generated: 2026-10-19T00:00:00Z
//
package buildinfo

var VERSION_INFO = "dev"

func BuildInfo() string {
	return VERSION_INFO
}

package consolelog

import (
	"fmt"

	"jenkinstools/lib/configutil"
)

// Platform is the metadata the release process tracks per job
// identifier. The table is maintained outside the parser and treated as
// read-only here.
type Platform struct {
	OS   string `json:"os"`
	Arch string `json:"arch"`
	JDK  string `json:"jdk"`
}

// PlatformTable maps a job identifier, e.g.
// "jdk21u-release-linux-x64-temurin", to its platform metadata.
type PlatformTable map[string]Platform

// DefaultPlatformConfig is the table bundled with the repository.
const DefaultPlatformConfig = "configs/platforms.json5"

func LoadPlatformTable(path string) (PlatformTable, error) {
	table, err := configutil.ReadConfig[PlatformTable](path)
	if err != nil {
		return nil, fmt.Errorf("failed to load platform table %q: %w", path, err)
	}
	return table, nil
}

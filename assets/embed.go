package assets

import "embed"

// Maps holds the bundled level files, named maze3d-<n>.json.
//
//go:embed maps/*.json
var Maps embed.FS

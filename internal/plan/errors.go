package plan

import "errors"

var ErrMissingArtifact = errors.New("missing generated artifact")

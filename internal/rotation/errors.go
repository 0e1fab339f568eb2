package rotation

import (
	"errors"
	"fmt"
)

// Stage identifies the rotation gate at which an attempt failed.
type Stage string

const (
	// StageGenerate covers credential generation (CSPRNG failure).
	StageGenerate Stage = "generate"
	// StageConfigWrite covers rendering/persisting the hostapd config.
	StageConfigWrite Stage = "config_write"
	// StageApply covers the network-stack restart that makes credentials live.
	StageApply Stage = "apply"
)

// RotationError is a fatal rotation-attempt failure. The previous
// credentials remain authoritative; the published state becomes "error".
type RotationError struct {
	Interface string
	Stage     Stage
	Err       error
}

func (e *RotationError) Error() string {
	return fmt.Sprintf("rotation failed for %s at %s: %v", e.Interface, e.Stage, e.Err)
}

func (e *RotationError) Unwrap() error { return e.Err }

// FailedStage extracts the failing stage from a rotation error, or "".
func FailedStage(err error) Stage {
	var re *RotationError
	if errors.As(err, &re) {
		return re.Stage
	}
	return ""
}

// IsApplyError reports whether err is a rotation failure at the apply gate.
func IsApplyError(err error) bool { return FailedStage(err) == StageApply }

// IsConfigWriteError reports whether err failed while writing the AP config.
func IsConfigWriteError(err error) bool { return FailedStage(err) == StageConfigWrite }

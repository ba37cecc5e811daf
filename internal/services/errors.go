package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrManifest      = errors.New("manifest error")
	ErrAssetLoad     = errors.New("asset load error")
	ErrConfiguration = errors.New("configuration error")
	ErrTimeout       = errors.New("timeout")
	ErrUnauthorized  = errors.New("unauthorized")
)

// Disposition tells the pipeline what to do with a failure.
type Disposition string

const (
	// DispositionHalt stops the pipeline and shows one notification.
	DispositionHalt Disposition = "halt"
	// DispositionAbsorb records the failure and keeps going.
	DispositionAbsorb Disposition = "absorb"
)

// Wrap builds an error message that includes component context while tagging it with
// the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrManifest
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Classify maps a failure to the pipeline disposition. Only per-asset load
// failures (including their timeouts) are absorbed; everything else halts.
func Classify(err error) Disposition {
	if errors.Is(err, ErrAssetLoad) {
		return DispositionAbsorb
	}
	return DispositionHalt
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "pipeline failure"
	}
	return strings.Join(parts, ": ")
}

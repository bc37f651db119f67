package volumecmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-textbook/internal/generator"
	"github.com/goliatone/go-textbook/internal/healthcheck"
	"github.com/goliatone/go-textbook/internal/ingest"
	"github.com/goliatone/go-textbook/internal/volume"
)

const (
	fetchVolumeMessageType = "textbook.volume.fetch"
	healthCheckMessageType = "textbook.volume.health_check"
)

// FetchResult is handed to FetchVolumeCommand.ResultCallback after a
// successful build.
type FetchResult struct {
	VolumeID   string
	Volume     *volume.Volume
	Build      *generator.BuildResult
	Duplicates []ingest.DuplicateChunkSlug
}

// CheckResult is handed to HealthCheckCommand.ResultCallback.
type CheckResult struct {
	Report *healthcheck.Report
	// SaveErr is set when the report could not be persisted. The report is
	// still complete.
	SaveErr error
}

// FetchVolumeCommand downloads a volume, validates it and writes its
// documents to OutputDir.
type FetchVolumeCommand struct {
	VolumeID  string `json:"volume_id"`
	OutputDir string `json:"output_dir"`
	// Clean removes OutputDir before writing.
	Clean  bool `json:"clean,omitempty"`
	DryRun bool `json:"dry_run,omitempty"`

	ResultCallback func(FetchResult) `json:"-"`
}

// Type implements command.Message.
func (FetchVolumeCommand) Type() string { return fetchVolumeMessageType }

// Validate ensures the volume id and output directory are present.
func (cmd FetchVolumeCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.VolumeID, validation.Required, validation.By(notBlank("textbook.volume.fetch.volume_id_required", "volume id is required"))),
		validation.Field(&cmd.OutputDir, validation.Required, validation.By(notBlank("textbook.volume.fetch.output_dir_required", "output directory is required"))),
	)
}

// HealthCheckCommand reconciles an ingested volume against the embedding index.
type HealthCheckCommand struct {
	VolumeID string         `json:"volume_id"`
	Volume   *volume.Volume `json:"-"`

	ResultCallback func(CheckResult) `json:"-"`
}

// Type implements command.Message.
func (HealthCheckCommand) Type() string { return healthCheckMessageType }

// Validate ensures a parsed volume is attached.
func (cmd HealthCheckCommand) Validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(cmd.VolumeID) == "" {
		errs["volume_id"] = validation.NewError("textbook.volume.health_check.volume_id_required", "volume id is required")
	}
	if cmd.Volume == nil {
		errs["volume"] = validation.NewError("textbook.volume.health_check.volume_required", "volume is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func notBlank(code, message string) validation.RuleFunc {
	return func(value any) error {
		if s, _ := value.(string); strings.TrimSpace(s) == "" {
			return validation.NewError(code, message)
		}
		return nil
	}
}

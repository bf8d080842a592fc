package types

import "errors"

var (
	ErrProfileNotFound       = errors.New("profile not found in AWS configuration")
	ErrRegionNotConfigured   = errors.New("no region configured for profile")
	ErrUnsupportedReportType = errors.New("unsupported report type")
	ErrInvalidTag            = errors.New("invalid tag, expected Key=Value")
	ErrInvalidTarget         = errors.New("invalid target configuration")
	ErrInvalidStackName      = errors.New("invalid stack name, expected a letter followed by letters, digits or hyphens")
	ErrConflictingRoles      = errors.New("default_role_arn and default_role_name are mutually exclusive")
)

package entity

import "strings"

// Partições AWS conhecidas.
const (
	PartitionAWS      = "aws"
	PartitionChina    = "aws-cn"
	PartitionGovCloud = "aws-us-gov"
	PartitionISO      = "aws-iso"
	PartitionISOB     = "aws-iso-b"
)

// Environment is the account context a template is synthesized for. Only the
// partition influences the output; the rest is informational.
type Environment struct {
	Profile   string `json:"profile"`
	Region    string `json:"region"`
	Partition string `json:"partition"`
}

// PartitionForRegion maps a region name to its partition. Unknown prefixes fall back
// to the commercial partition.
func PartitionForRegion(region string) string {
	switch {
	case strings.HasPrefix(region, "cn-"):
		return PartitionChina
	case strings.HasPrefix(region, "us-gov-"):
		return PartitionGovCloud
	case strings.HasPrefix(region, "us-isob-"):
		return PartitionISOB
	case strings.HasPrefix(region, "us-iso-"):
		return PartitionISO
	default:
		return PartitionAWS
	}
}

// Package field defines FieldID, the numeric column identifier shared
// by the process table, the persisted Settings, and the sort/filter
// pipeline. It is split out from internal/process so that
// internal/config (which needs FieldID for Settings.Fields/SortKey)
// and internal/process (which needs config.Settings as a
// ProcessRecord back-reference) don't import each other.
package field

// FieldID identifies one displayable column of a ProcessRecord. The
// numbering follows the platform-extended-enumeration convention from
// the spec: the core fields occupy the low range and a platform
// source is free to register its own fields starting at 100.
type FieldID int

const (
	FieldNone FieldID = iota
	FieldPID
	FieldPPID
	FieldTGID
	FieldPGRP
	FieldSession
	FieldTPGID
	FieldTTY
	FieldRUID
	FieldEUID
	FieldUser
	FieldState
	FieldPriority
	FieldNice
	FieldIOPriority
	FieldProcessor
	FieldNLWP
	FieldVirt
	FieldResident
	FieldShare
	FieldPercentCPU
	FieldPercentMem
	FieldTime
	FieldStartTime
	FieldMinFlt
	FieldMajFlt
	FieldReadBytesRate
	FieldWriteBytesRate
	FieldRCharRate
	FieldWCharRate
	FieldSysCRRate
	FieldSysCWRate
	FieldCancelledWriteBytes
	FieldComm
	FieldCmdline

	// FieldSentinel terminates a zero-terminated field list, per §3.3.
	FieldSentinel FieldID = 0

	// PlatformFieldBase is the first id a PlatformSource may use for
	// its own extended fields (§9 "Class with virtual display/compare").
	PlatformFieldBase FieldID = 100
)

// fieldNames backs the `-s help` CLI listing and the rc-file writer;
// index must track the FieldID const block above.
var fieldNames = map[FieldID]string{
	FieldPID:                 "PID",
	FieldPPID:                "PPID",
	FieldTGID:                "TGID",
	FieldPGRP:                "PGRP",
	FieldSession:             "SESSION",
	FieldTPGID:               "TPGID",
	FieldTTY:                 "TTY",
	FieldRUID:                "RUID",
	FieldEUID:                "EUID",
	FieldUser:                "USER",
	FieldState:               "STATE",
	FieldPriority:            "PRIORITY",
	FieldNice:                "NICE",
	FieldIOPriority:          "IOPRIO",
	FieldProcessor:           "PROCESSOR",
	FieldNLWP:                "NLWP",
	FieldVirt:                "M_SIZE",
	FieldResident:            "M_RESIDENT",
	FieldShare:               "M_SHARE",
	FieldPercentCPU:          "PERCENT_CPU",
	FieldPercentMem:          "PERCENT_MEM",
	FieldTime:                "TIME",
	FieldStartTime:           "STARTTIME",
	FieldMinFlt:              "MINFLT",
	FieldMajFlt:              "MAJFLT",
	FieldReadBytesRate:       "IO_READ_RATE",
	FieldWriteBytesRate:      "IO_WRITE_RATE",
	FieldRCharRate:           "RCHAR_RATE",
	FieldWCharRate:           "WCHAR_RATE",
	FieldSysCRRate:           "SYSCR_RATE",
	FieldSysCWRate:           "SYSCW_RATE",
	FieldCancelledWriteBytes: "IO_CANCELLED",
	FieldComm:                "Command",
	FieldCmdline:             "CMDLINE",
}

// Name returns the canonical column name used by the rc file and the
// `-s help` listing. Unknown ids (including platform-extended ones
// this package doesn't know about) render as "?".
func (f FieldID) Name() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}
	return "?"
}

// DefaultFields is the fallback field set used when Settings carries
// none (fresh install, unparseable rc file). Terminated by
// FieldSentinel per §3.3.
func DefaultFields() []FieldID {
	return []FieldID{
		FieldPID, FieldUser, FieldPriority, FieldNice,
		FieldVirt, FieldResident, FieldShare, FieldState,
		FieldPercentCPU, FieldPercentMem, FieldTime, FieldComm,
		FieldSentinel,
	}
}

// AllSortableFields backs `-s help` (§6.2) and the sort-column picker
// (§4.9 F6).
func AllSortableFields() []FieldID {
	out := make([]FieldID, 0, len(fieldNames))
	for id := range fieldNames {
		if id != FieldComm && id != FieldCmdline {
			out = append(out, id)
		}
	}
	return out
}

// AllNames renders AllSortableFields as their canonical names, for the
// sort-column picker's option list.
func AllNames() []string {
	ids := AllSortableFields()
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.Name()
	}
	return out
}

// ByName reverses Name: the canonical column name back to its
// FieldID, used when the picker or CLI `-s` flag hands back a name.
func ByName(name string) (FieldID, bool) {
	for id, n := range fieldNames {
		if n == name {
			return id, true
		}
	}
	return FieldNone, false
}

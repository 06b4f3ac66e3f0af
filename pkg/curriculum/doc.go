// SPDX-License-Identifier: MPL-2.0

// Package curriculum holds the compiled game model consumed by the
// publishing layer: worlds and their prerequisite paths, levels with their
// statements and hints, the vocabulary inventory and the per-level computed
// availability of every inventory item.
//
// The model is plain data. It is populated by the builder while units are
// applied and completed by the availability compiler; nothing in this package
// performs validation beyond simple lookups.
package curriculum

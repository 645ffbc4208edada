// Package stdlib is the host-side package that populates an
// extern.Registry with the extension functions scripts reach through
// `extern name in "lib";` (spec.md §6.2), mirroring the way sentra's
// internal/stdlib and internal/vmregister populate the VM's builtin
// table. The core (internal/eval, internal/parser) never imports this
// package directly — internal/repl's NewHost wires it in at startup.
package stdlib

import "rossa/internal/extern"

// RegisterAll populates reg with every extension module this module
// ships. A host that only wants a subset can call the individual
// Register* functions instead.
func RegisterAll(reg *extern.Registry) {
	RegisterDatabase(reg)
	RegisterNet(reg)
	RegisterWebsocket(reg)
	RegisterConcurrency(reg)
	RegisterCrypto(reg)
	RegisterUUID(reg)
	RegisterHumanize(reg)
	RegisterMath(reg)
	RegisterIO(reg)
}

// Package host implements the host-OS abstraction the engine consumes as
// an external collaborator: filesystem operations, temp-dir resolution,
// process execution, and a platform query.
//
// The fetch, recipe, builder and tempproject packages take a Host rather
// than calling os/os-exec directly. The assemble package still reads
// payload metadata and checks script presence through os.
package host

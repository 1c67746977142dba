// Package modules ties the parts of a program together. Modules declare
// their dependencies and go through these stages:
//
//   - init(): register the module and its flags
//   - prep: check flags, register config options
//   - start: begin work, read config, start workers
//   - stop: release resources, called after all workers finished
//
// Prep and start run after all dependencies completed the same stage. Stop
// runs after all dependent modules stopped.
package modules

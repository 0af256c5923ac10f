// Package models provides ready-made ODE systems for the driver and the CLI.
//
// Each model is a parameter struct. System builds an immutable
// [dynamo.Descriptor] from a copy of the parameters, so changing a model
// after System has been called never affects a running driver.
package models

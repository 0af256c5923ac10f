// Package driver advances an ODE system to target times with adaptive steps.
//
// A [Driver] owns one system, one kernel and one controller and carries the
// integration point (t, h, y) between calls to [Driver.Advance]. Each trial
// step is produced by the kernel, judged by the controller and either
// committed or retried with a smaller step. The driver never steps past a
// target: the last step is shortened to land on it exactly.
//
// Drivers are not safe for concurrent use. [RunEnsemble] integrates many
// independent drivers in parallel.
package driver

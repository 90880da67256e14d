package thermostat

import "fmt"

// IncompatibleError reports an attempt to enable a thermostat while a
// variant outside its compatibility set is active.
type IncompatibleError struct {
	Active    Variant
	Requested Variant
}

func (e IncompatibleError) Error() string {
	return fmt.Sprintf("cannot enable %s thermostat while %s is active; turn the thermostat off first", e.Requested, e.Active)
}

// MissingSeedError reports a first activation without a seed for the
// variant's random stream.
type MissingSeedError struct {
	Requested Variant
}

func (e MissingSeedError) Error() string {
	return fmt.Sprintf("%s thermostat: a seed has to be given on first activation", e.Requested)
}

// ArgumentError reports a rejected parameter. Validation runs before any
// mutation, so a rejected call leaves the store untouched.
type ArgumentError struct {
	Param  string
	Reason string
}

func (e ArgumentError) Error() string {
	return fmt.Sprintf("invalid thermostat parameter %s: %s", e.Param, e.Reason)
}

// Package events carries requests for background work from the layers that
// want it done (API handlers, services) to the job runner that does it,
// without either side importing the other.
//
// A JobRequestEvent names a job type and carries its payload as raw JSON;
// the job package's subscriber decodes the payload and builds the actual
// job. Emission is synchronous and in-process: EmitEvent returns once every
// registered handler has seen the event.
package events

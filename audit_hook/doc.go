// Package audithook bridges client lifecycle events to an immutable audit
// trail backend.
//
// Connection losses, recoveries, and client shutdown each emit a structured
// audit event through the [Recorder] interface. The hook assigns severity
// levels (critical for a lost connection, info for recovery and shutdown)
// and carries the failure cause as metadata.
//
// # Usage
//
//	audithook.New(audithook.RecorderFunc(func(ctx context.Context, evt *audithook.AuditEvent) error {
//	    return trail.Write(ctx, evt.Action, evt.Resource, evt.Metadata)
//	}))
//
// # Selective filtering
//
//	audithook.New(recorder,
//	    audithook.WithActions(audithook.ActionConnectionLost),
//	)
package audithook

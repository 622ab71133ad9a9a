// Package zeebe provides a client for a Zeebe-style process-orchestration
// broker: a request/response façade for process operations and long-running
// job workers that pull, execute, and report units of work.
//
// The client tolerates broker unavailability. Connection health is derived
// from observed call outcomes and gates the worker polling loops: workers
// back off while the connection is broken and resume on their own once a
// call succeeds. Managed-cloud addresses get a cold-start grace window in
// which connectivity failures are expected and suppressed.
//
// # Quick Start
//
//	client, err := zeebe.New("localhost:26500")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close(context.Background())
//
//	w, err := client.NewJobWorker(worker.Registration{
//	    TaskType: "payment-service",
//	    Handler: func(ctx context.Context, job *gateway.ActivatedJob) (any, error) {
//	        return map[string]any{"charged": true}, nil
//	    },
//	})
//
// # Architecture
//
// Every outbound call passes through an interceptor that feeds its outcome
// to the connection health monitor; the monitor's state is advisory and
// drives worker backoff only. The wire transport is pluggable behind the
// gateway.Transport interface.
package zeebe

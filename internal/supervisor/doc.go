// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

/*
Package supervisor runs the long-lived parts of the recommendation service
under a suture v4 supervisor tree.

# Overview

	RootSupervisor ("hybridrec")
	├── DataSupervisor ("data-layer")
	│   └── RecommendService (train on startup, then on an interval)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A training failure restarts nothing: the service logs it and retries on the
next tick while the API keeps serving the previous model. A crashed HTTP
server is restarted by the api layer without touching the training loop.

Supervisor events (start, stop, failure, backoff) are written through
sutureslog into the zerolog logger via logging.NewSlogHandler.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{})
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewRecommendService(engine, svcCfg, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	errCh := tree.ServeBackground(ctx)
	<-ctx.Done()

Services that fail to stop within ShutdownTimeout are listed by
UnstoppedServiceReport.
*/
package supervisor

// Hybridrec - Hybrid Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

// Package services adapts application components to suture.Service.
//
// Each wrapper blocks in Serve until its context is cancelled and implements
// fmt.Stringer so supervisor events name the service:
//
//   - RecommendService ("recommend-service"): periodic model training
//   - HTTPServerService ("http-server"): net/http server lifecycle
package services

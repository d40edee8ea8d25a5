// Appwrite Realtime SDK for Go
// Copyright 2026 Appwrite (appwrite.io)
// SPDX-License-Identifier: BSD-3-Clause
// https://github.com/appwrite/sdk-for-react-native-sub000

/*
Package services provides suture.Service wrappers for the realtime-tail binary.

Each wrapper implements the suture.Service interface:

	type Service interface {
	    Serve(ctx context.Context) error
	}

# Available Services

Subscription (SubscriptionService):
  - Holds one realtime subscription while served and unsubscribes on return
  - Terminates the supervisor tree on a policy violation close (code 1008)

HTTP Server (HTTPServerService):
  - Wraps *http.Server with graceful shutdown
  - Converts the ListenAndServe pattern to Serve

# Usage

	tail := services.NewSubscriptionService("tail", client, channels, printEvent)
	client.SetRealtimeOptions(func(o *realtime.Options) { o.OnError = tail.ReportError })
	tree.AddRealtimeService(tail)
	tree.AddAPIService(services.NewHTTPServerService(srv, srv.Addr, 5*time.Second))
*/
package services

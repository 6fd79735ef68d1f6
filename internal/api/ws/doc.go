// Package ws streams host push events to the UI over a WebSocket.
//
// The stream is one-way: every events.Bus event becomes one text frame
//
//	{"event":"window.maximizeChanged","payload":true,"timestamp":1700000000000}
//
// Client frames are ignored apart from control messages. A slow client loses
// events (the bus drops them) rather than stalling the publisher.
//
// Example Usage:
//
//	handler := ws.NewHandler(bus, ws.DefaultConfig(prefixes), metrics, logger)
//	router.GET("/bridge/events", handler.HandleConnection)
package ws

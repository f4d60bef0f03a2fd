// Package relay forwards hub publishes to an external broker through an event.Forwarder.
package relay

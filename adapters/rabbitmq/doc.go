/*
Package rabbitmq provides a RabbitMQ forwarder for hub envelopes.
It maps forwards to AMQP publishes, includes an auto-reconnect publisher,
and supports optional header propagation via an event.HeaderPropagator.
*/
package rabbitmq

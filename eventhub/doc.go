/*
Package eventhub provides an in-process publish/subscribe hub keyed by topic.

Subscribers are called synchronously, in subscription order, on the
publisher's goroutine. Any value can be given its own independent hub through
Install and the embeddable Mixin.
*/
package eventhub

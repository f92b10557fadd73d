// Package alert delivers status-transition notifications.
//
// Dispatchers receive transitions detected by the stats aggregator and fan
// them out to their channel: a structured log line, a webhook POST, or a
// composite of several. Delivery is best-effort: a failed delivery is logged
// and dropped, it never propagates back into the check loop.
package alert

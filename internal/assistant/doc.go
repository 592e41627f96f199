// Package assistant defines the boundary between the application core and
// external language-model services. Everything the application wants from a
// model funnels through the single Asker capability: hand over a prompt, get
// text back. Consumers receive an Asker by injection and decide for
// themselves what a reply means and what to do when the model is
// unavailable; the deterministic parts of the product never depend on an
// Asker succeeding.
package assistant

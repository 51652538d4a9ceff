// Package entities provides the core data structures for rpg-narrative:
// characters, the scenario graph, campaigns, parties and the responses the
// engines return to adapters.
package entities

// Package signal provides seeded uniform white noise, the raw material of
// stochastic impulse responses, and peak normalization.
package signal

// Package episode defines the immutable scene and episode models populated
// once a generation job completes.
package episode

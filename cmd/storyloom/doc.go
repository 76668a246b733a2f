// Command storyloom requests AI-generated interactive learning episodes,
// tracks their generation jobs, prefetches scene media into a local cache,
// and plays the result scene by scene on the terminal.
package main

// Package tracking provides enhanced trackers: tracking services backed by a
// self-hosted media server (Komga, Kavita, Jellyfin) that can remap their
// own records when an entry moves to another source served by the same server.
package tracking

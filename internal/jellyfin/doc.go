// Package jellyfin provides the client used to query the Jellyfin music
// library for candidate tracks.
//
// The matching engine consumes the Client interface; the HTTP implementation
// talks to the Jellyfin Items API with an api key. Tests substitute fakes.
package jellyfin

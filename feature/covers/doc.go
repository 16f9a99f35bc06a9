// Package covers stores custom cover images of library entries in object
// storage under covers/custom/{entryID}.
package covers

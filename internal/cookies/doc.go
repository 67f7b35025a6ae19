// Package cookies reads browser cookie stores and converts them into jar
// seeds. It supports Firefox (moz_cookies SQLite), Chrome (cookies SQLite,
// unencrypted only) and Netscape text files, and can write a jar snapshot
// back out in Netscape format.
//
// Cookie values are never logged. Sources are read through an afero.Fs so
// the daemon and tests can swap the filesystem.
package cookies

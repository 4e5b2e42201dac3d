// MuseScore packs its scores in .mscz files, zip archives holding the
// score XML next to thumbnails, audio settings and style files.
//
// Basic Usage:
//
//	mscz, err := OpenMsczFile("song.mscz")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer mscz.Close()
//
//	data, err := mscz.ReadScore()
//
// The score is the first rootfile listed in META-INF/container.xml. Archives
// without a container file fall back to their first .mscx entry.
package main

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
)

const msczContainerPath = "META-INF/container.xml"

var rootfileExpr = xpath.MustCompile("//rootfiles/rootfile[@full-path]")

// MsczFileEntry describes a file stored in the archive
type MsczFileEntry struct {
	Filename string
	Size     uint64
}

// MsczFile is an opened MuseScore archive
type MsczFile struct {
	Path   string
	Files  []MsczFileEntry
	zip    *zip.Reader
	closer io.Closer
}

// OpenMsczFile opens the archive at filename. The returned MsczFile must be
// closed with Close() when finished.
func OpenMsczFile(filename string) (*MsczFile, error) {
	rc, err := zip.OpenReader(filename)
	if err != nil {
		return nil, &IOError{Op: "open", Path: filename, Err: err}
	}

	mscz := newMsczFile(filename, &rc.Reader)
	mscz.closer = rc
	return mscz, nil
}

// ReadMscz reads an archive held in memory
func ReadMscz(name string, data []byte) (*MsczFile, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &ParseError{Format: "MSCZ", Path: name, Message: err.Error(), Err: err}
	}
	return newMsczFile(name, r), nil
}

func newMsczFile(name string, r *zip.Reader) *MsczFile {
	mscz := &MsczFile{Path: name, zip: r}
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		mscz.Files = append(mscz.Files, MsczFileEntry{
			Filename: f.Name,
			Size:     f.UncompressedSize64,
		})
	}
	return mscz
}

// Close releases the underlying file
func (m *MsczFile) Close() error {
	if m.closer != nil {
		return m.closer.Close()
	}
	return nil
}

// ListFiles returns the names of all files in the archive in archive order
func (m *MsczFile) ListFiles() []string {
	files := make([]string, len(m.Files))
	for i, entry := range m.Files {
		files[i] = entry.Filename
	}
	return files
}

// ReadFile returns the uncompressed contents of filename
func (m *MsczFile) ReadFile(filename string) ([]byte, error) {
	for _, f := range m.zip.File {
		if f.Name != filename {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return nil, &IOError{Op: "open", Path: m.Path + ":" + filename, Err: err}
		}
		defer rc.Close()

		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, &IOError{Op: "read", Path: m.Path + ":" + filename, Err: err}
		}
		return data, nil
	}

	return nil, fmt.Errorf("file not found: %s: %w", filename, ErrScoreNotFound)
}

// RootFile returns the archive path of the score
func (m *MsczFile) RootFile() (string, error) {
	data, err := m.ReadFile(msczContainerPath)
	if err == nil {
		doc, err := xmlquery.Parse(bytes.NewReader(data))
		if err != nil {
			return "", &ParseError{Format: "container.xml", Path: m.Path, Message: err.Error(), Err: err}
		}
		for _, node := range xmlquery.QuerySelectorAll(doc, rootfileExpr) {
			name := node.SelectAttr("full-path")
			if strings.EqualFold(path.Ext(name), ".mscx") {
				return name, nil
			}
		}
	}

	for _, entry := range m.Files {
		if strings.EqualFold(path.Ext(entry.Filename), ".mscx") {
			return entry.Filename, nil
		}
	}

	return "", fmt.Errorf("%s: %w", m.Path, ErrScoreNotFound)
}

// ReadScore returns the score XML
func (m *MsczFile) ReadScore() ([]byte, error) {
	name, err := m.RootFile()
	if err != nil {
		return nil, err
	}
	return m.ReadFile(name)
}

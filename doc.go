// Package big reads, edits and writes .big archives, the single-file
// containers shipped by SAGE engine real-time strategy games.
//
// This package is a thin facade over [core]: it re-exports the archive API
// and adds [Open], which picks between the in-memory and the file-backed
// variant.
//
// # Quick Start
//
// Open an archive, edit an entry and save it in place:
//
//	a, err := big.Open("INI.big", big.ModeAuto)
//	if err != nil {
//	    return err
//	}
//	if err := a.EditFile(`data\ini\weapon.ini`, patched); err != nil {
//	    return err
//	}
//	err = a.Save("INI.big")
//
// Pack a directory:
//
//	a, err := big.FromDirectory("./mod")
//	if err != nil {
//	    return err
//	}
//	err = a.Save("mod.big")
//
// # Deferred edits
//
// AddFile, EditFile, RemoveFile and RenameFile only change the entry table.
// Offsets and the header are recomputed by Repack, which Save, Extract and
// Bytes run when the archive is dirty. Until then, unmodified entries keep
// reading from the previous stream.
package big

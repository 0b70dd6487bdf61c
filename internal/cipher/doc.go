// Package cipher implements the reversible text-obscuring codec used to keep
// credentials and generated artifacts out of plain sight.
//
// The codec is obfuscation, not encryption. A label (conventionally the
// package name) is turned into a seed, the seed drives a reproducible
// shuffle of a fixed 94-symbol [Alphabet] (the "soup"), and every character
// of the compressed, base64-encoded payload is substituted through a
// rotation of that soup chosen by its position.
//
// Basic usage:
//
//	codec, err := cipher.New("mypkg")
//	if err != nil {
//	    return err
//	}
//	hidden, err := codec.Obscure("hunter2")
//	plain, err := codec.Unobscure(hidden)
//
// The shuffle reproduces the Mersenne Twister stream and Fisher-Yates draws
// of the tool that produced existing artifacts, so ciphertext obscured
// elsewhere decodes here when [RotationLegacy] is selected.
//
// Configuration via ~/.quill.yaml:
//
//	label: mypkg
//	cipher:
//	  rotation: legacy # or cyclic
package cipher

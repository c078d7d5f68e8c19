// Package transfer contains the Content-transfer-encoding engine. Every
// supported encoding has an encoder and a decoder registered in Transcodings.
// Only quoted-printable and base64 change the bytes of the body. The 7bit and
// 8bit encodings leave bytes alone apart from writing line endings with the
// requested line break, and binary leaves everything as-is.
//
// For the sake of this module, the term "decoded" means that the content has
// been transformed from the named Content-transfer-encoding to the charset
// encoded form. Meanwhile, "encoded" means that the content has been
// transformed from the charset encoding to the named Content-transfer-encoding.
//
// The Suggest pseudo-encoding is resolved by scanning a body: clean 7-bit text
// with reasonably short lines stays 7bit, while anything else is encoded as
// quoted-printable (for text) or base64.
package transfer

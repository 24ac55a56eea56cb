// Package token defines the leading tokens recognized ahead of file content.
// Contract:
//   - Token.Text excludes delimiters: for Line the text after "//" up to the
//     line break, for Block the text strictly between "/*" and "*/" with no
//     trimming, for Shebang the text after "#!".
//   - Token.Span covers the whole token including delimiters and excluding
//     the trailing line break.
//   - A Block token with Terminated=false reaches the end of the file.
//   - Shebang may only appear at byte offset 0.
package token

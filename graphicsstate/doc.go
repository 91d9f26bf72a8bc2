// Package graphicsstate tracks the graphics and text state a content stream
// interpreter needs to place glyphs: the CTM, the text and line matrices,
// the current font and the text spacing parameters.
//
// q and Q map to [State.Save] and [State.Restore]; restoring an empty stack
// is reported as [core.ErrCorruptDocument].
package graphicsstate

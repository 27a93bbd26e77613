package pixel

// TextureSink receives finished surfaces, typically a GPU texture uploader.
type TextureSink interface {
	UploadTexture(width, height int, format Format, rowStride int, data []byte) error
}

// Upload hands b to sink.
func Upload(sink TextureSink, b *Buffer) error {
	return sink.UploadTexture(b.width, b.height, b.format, b.rowStride, b.Data())
}

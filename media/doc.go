// Package media provides the external image and video operations needed to
// build a thumbnail sprite: sampling frames from a video ([Producer]),
// measuring a frame ([Inspector]), resizing frames ([Resizer]) and tiling
// frames into one image ([Composer]).
//
// [FFmpeg] samples frames with the ffmpeg binary. [ImageMagick] shells out to
// identify, mogrify and montage. [Native] implements the image operations in
// Go with [golang.org/x/image/draw] and needs no external binaries; [Imaging]
// does the same with the imaging library's Lanczos filter.
//
// Every binary is invoked through a [Runner], which tests replace with a fake.
package media

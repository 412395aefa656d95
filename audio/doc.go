// Package audio turns uploaded media into the canonical form both models
// consume: 16 kHz mono float32 samples.
//
// Containers outside the canonical set (webm, mp4) are first normalized to
// a PCM16 WAV file by the Transcoder. The Decoder then loads the canonical
// file, in-process when it is already a 16 kHz mono PCM16 WAV, and through
// an ffmpeg pipe otherwise.
package audio

// Package analysis runs one uploaded clip through the audio pipeline:
// validate, save to scratch, transcode when needed, decode, then classify
// and transcribe concurrently and aggregate both into one Result.
//
// The Runtime carries the process-wide model state and is built once at
// startup. The Pipeline borrows it for every request.
//
//	rt := analysis.NewRuntime(classifier, transcriber, transcoder, decoder, log)
//	_ = rt.Init(ctx)
//	p := analysis.NewPipeline(rt, scratch, analysis.Config{}, log)
//	res := p.Run(ctx, analysis.Clip{Filename: "clip.webm", Body: body})
//	c.JSON(res.HTTPStatus(), res.Response())
package analysis

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/tnqbao/gau-video-service/uploader"
)

func main() {
	var (
		baseURL     = flag.String("api", "http://localhost:8080", "backend base URL")
		token       = flag.String("token", "", "bearer token")
		filePath    = flag.String("file", "", "video file to upload")
		title       = flag.String("title", "", "video title")
		description = flag.String("description", "", "video description")
		categoryID  = flag.String("category", "", "category id")
		videoType   = flag.String("type", "free", "video type (free or premium)")
		promoted    = flag.Bool("promoted", false, "mark the video as promoted")
	)
	flag.Parse()

	if *filePath == "" || *title == "" || *description == "" {
		flag.Usage()
		os.Exit(2)
	}

	file, err := os.Open(*filePath)
	if err != nil {
		log.Fatalf("open file: %v", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		log.Fatalf("stat file: %v", err)
	}

	ctx := context.Background()
	client := uploader.NewClient(*baseURL, *token)

	onProgress := func(state uploader.ProgressState) {
		if state.Err != nil {
			fmt.Printf("\n%s: %v\n", state.Phase, state.Err)
			return
		}
		fmt.Printf("\r%-12s %3d%%", state.Phase, state.Progress)
	}

	uploadURL, uploadID, err := client.CreateVideoUpload(ctx, uploader.UploadMetadata{
		Title:       *title,
		Description: *description,
		CategoryID:  *categoryID,
		Type:        *videoType,
		IsPromoted:  *promoted,
	})
	if err != nil {
		log.Fatalf("create upload: %v", err)
	}
	fmt.Printf("upload session: %s\n", uploadID)

	up := uploader.NewUploader(onProgress)
	if err := up.Upload(ctx, uploadURL, uploadID, file, info.Size()); err != nil {
		log.Fatalf("upload: %v", err)
	}

	poller := uploader.NewPoller(client, onProgress)
	assetID, err := poller.PollUntilReady(ctx, uploadID)
	if err != nil {
		log.Fatalf("processing: %v", err)
	}

	fmt.Printf("\nasset ready: %s\n", assetID)
}

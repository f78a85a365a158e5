package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mediacloud/go-mediacloud/core"
	"github.com/mediacloud/go-mediacloud/typed"
)

var uploadOpts struct {
	resourceType string
	folder       string
	publicID     string
	tags         []string
	preset       string
	overwrite    bool
	concurrency  int
}

var uploadCmd = &cobra.Command{
	Use:   "upload FILE_OR_URL...",
	Short: "Upload local files or remote URLs",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if uploadOpts.publicID != "" && len(args) > 1 {
			return fmt.Errorf("--public-id can only be used with a single file")
		}
		items := make([]*typed.UploadParams, 0, len(args))
		for _, arg := range args {
			items = append(items, uploadItem(arg))
		}
		client, err := newClient(cmd)
		if err != nil {
			return err
		}
		results, err := client.Uploader.UploadBatch(cmd.Context(), items, uploadOpts.concurrency)
		records := make(core.RecordSet, 0, len(results))
		var failures int
		for i, res := range results {
			if res == nil {
				continue
			}
			record := core.Record{"file": args[i], "public_id": res.PublicID, "secure_url": res.SecureURL}
			if res.Failed() {
				failures++
				record["error"] = res.Error.Message
			}
			records = append(records, record)
		}
		if renderErr := render(cmd, records); renderErr != nil {
			return renderErr
		}
		if err != nil {
			return err
		}
		if failures > 0 {
			return fmt.Errorf("%d of %d uploads failed", failures, len(items))
		}
		return nil
	},
}

func uploadItem(arg string) *typed.UploadParams {
	file := typed.FilePath(arg)
	if isRemote(arg) {
		file = typed.FileURL(arg)
	}
	p := &typed.UploadParams{
		File:         file,
		ResourceType: core.ResourceType(uploadOpts.resourceType),
	}
	p.PublicID = uploadOpts.publicID
	p.Folder = uploadOpts.folder
	p.Tags = uploadOpts.tags
	p.UploadPreset = uploadOpts.preset
	if uploadOpts.overwrite {
		p.Overwrite = core.Bool(true)
	}
	return p
}

func isRemote(arg string) bool {
	for _, prefix := range []string{"http://", "https://", "s3://", "gs://", "data:"} {
		if strings.HasPrefix(arg, prefix) {
			return true
		}
	}
	return false
}

func init() {
	f := uploadCmd.Flags()
	f.StringVar(&uploadOpts.resourceType, "resource-type", string(core.ResourceTypeAuto), "image, video, raw or auto")
	f.StringVar(&uploadOpts.folder, "folder", "", "destination folder")
	f.StringVar(&uploadOpts.publicID, "public-id", "", "public id (single file only)")
	f.StringSliceVar(&uploadOpts.tags, "tag", nil, "tag to attach (repeatable)")
	f.StringVar(&uploadOpts.preset, "preset", "", "upload preset")
	f.BoolVar(&uploadOpts.overwrite, "overwrite", false, "replace an existing asset with the same public id")
	f.IntVarP(&uploadOpts.concurrency, "concurrency", "j", typed.DefaultBatchConcurrency, "parallel uploads")
}

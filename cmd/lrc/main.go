package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/yleoer/lrc/pkg/config"
	"github.com/yleoer/lrc/pkg/converter"
	"github.com/yleoer/lrc/pkg/database"
	"github.com/yleoer/lrc/pkg/metadata"
	"github.com/yleoer/lrc/pkg/scanner"
	"github.com/yleoer/lrc/pkg/scheduler"
	"github.com/yleoer/lrc/pkg/util"
)

func main() {
	// 1. 初始化日志器
	logger := log.New(os.Stdout, "[LyricIndexer] ", log.LstdFlags|log.Lshortfile)
	// 2. 加载配置
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Printf("Configuration loaded: LyricsDir=%s, DBPath=%s, ConvertT2S=%v, ApplyOffset=%v",
		cfg.LyricsDir, cfg.DBPath, cfg.ConvertT2S, cfg.ApplyOffset)

	// lrc fetch <title> [artist]：在线获取歌词并打印
	if len(os.Args) > 1 && os.Args[1] == "fetch" {
		if err := fetch(cfg, logger, os.Args[2:]); err != nil {
			logger.Fatalf("Fetch failed: %v", err)
		}
		return
	}

	// 3. 初始化所有依赖服务
	// 3.1 繁简体转换器（可选）
	var t2sConverter converter.TextConverter
	if cfg.ConvertT2S {
		t2sConverter, err = converter.NewOpenCCConverter(logger)
		if err != nil {
			logger.Fatalf("Failed to initialize OpenCC converter: %v", err)
		}
	}
	// 3.2 数据库存储
	dbStore, err := database.NewSQLiteStore(cfg.DBPath, logger)
	if err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer dbStore.Close()
	// 3.3 歌词解析器
	lyricScanner := scanner.NewLyricScanner(t2sConverter, cfg.ApplyOffset, logger)
	// 4. 初始化任务调度器
	taskScheduler := scheduler.NewTaskScheduler(cfg.ScanDelay, dbStore, lyricScanner, logger)
	// 5. 启动文件系统监听器，先监听再扫描，避免遗漏扫描期间的变化
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Fatalf("Error creating file watcher: %v", err)
	}
	defer watcher.Close()
	if err := watchTree(watcher, cfg.LyricsDir); err != nil {
		logger.Fatalf("Error watching lyrics directory %s: %v", cfg.LyricsDir, err)
	}
	logger.Printf("Monitoring lyrics directory %s...", cfg.LyricsDir)
	// 6. 执行初始扫描
	taskScheduler.InitialScan(cfg.LyricsDir)
	// 7. 处理文件系统事件
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				logger.Printf("Watcher event: %s, on %s", event.Op.String(), event.Name)
				// 新建子目录：加入监听并扫描其中已有的歌词
				if event.Has(fsnotify.Create) && util.IsDirectory(event.Name) {
					if err := watchTree(watcher, event.Name); err != nil {
						logger.Printf("ERROR: Error watching %s: %v", event.Name, err)
					}
					taskScheduler.InitialScan(event.Name)
					continue
				}
				if !util.IsLyricFile(event.Name) {
					continue
				}
				// 重命名事件针对旧路径，新路径会另外收到 Create
				switch {
				case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
					taskScheduler.Remove(event.Name)
				case event.Has(fsnotify.Create) || event.Has(fsnotify.Write):
					taskScheduler.TriggerScan(event.Name)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Printf("ERROR: Watcher error: %v", err)
			}
		}
	}()
	// 保持主Goroutine运行
	logger.Println("Application is running. Press Ctrl+C to exit.")
	<-make(chan struct{})
}

// watchTree 监听 root 及其所有子目录（fsnotify 不支持递归监听）
func watchTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}

func fetch(cfg *config.Config, logger *log.Logger, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: lrc fetch <title> [artist]")
	}
	title := args[0]
	artist := strings.Join(args[1:], " ")

	client := metadata.NewNeteaseClient(cfg.NeteaseAPI, cfg.HTTPTimeout, logger)
	f, err := client.FetchLyrics(title, artist)
	if err != nil {
		return err
	}
	for _, line := range f.Lines() {
		fmt.Printf("%s  %s\n", util.FormatTimestamp(line.Timestamp), line.Content)
	}
	return nil
}

package completion

const powershellScript = `# PowerShell completion for quickget

Register-ArgumentCompleter -Native -CommandName quickget -ScriptBlock {
    param($commandName, $wordToComplete, $commandAst, $fakeBoundParameters)

    $commands = @(
        [System.Management.Automation.CompletionResult]::new('get', 'get', [System.Management.Automation.CompletionResultType]::ParameterValue, 'Fetch a resource')
        [System.Management.Automation.CompletionResult]::new('bench', 'bench', [System.Management.Automation.CompletionResultType]::ParameterValue, 'Measure fetch latency')
        [System.Management.Automation.CompletionResult]::new('config', 'config', [System.Management.Automation.CompletionResultType]::ParameterValue, 'Manage config')
        [System.Management.Automation.CompletionResult]::new('completion', 'completion', [System.Management.Automation.CompletionResultType]::ParameterValue, 'Generate completion')
    )

    $commands | Where-Object { $_.CompletionText -like "$wordToComplete*" }
}
`
